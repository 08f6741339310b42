package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	"github.com/coreman2200/funtimes-lightstrip/internal/serial"
)

var sendCmd = &cobra.Command{
	Use:   "send <pattern | brightness N | 0xNN>",
	Short: "Write one command byte to a serial port",
	Example: `  lightstrip send --port /dev/ttyACM0 gradient
  lightstrip send --port /dev/ttyACM0 brightness 7
  lightstrip send --port /dev/ttyACM0 0x06`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := command.Encode(strings.Join(args, " "))
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		baud, _ := cmd.Flags().GetInt("baud")
		dry, _ := cmd.Flags().GetBool("dry-run")
		if dry {
			fmt.Fprintf(cmd.OutOrStdout(), "0x%02X\n", b)
			return nil
		}
		if port == "" {
			return errors.New("--port is required to send")
		}
		p, err := serial.Open(port, baud)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := serial.Send(p, b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent 0x%02X to %s\n", b, port)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringP("port", "p", "", "serial port")
	sendCmd.Flags().Int("baud", serial.DefaultBaud, "baud rate")
	sendCmd.Flags().Bool("dry-run", false, "print the byte without sending")
}
