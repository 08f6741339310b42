package diagnostics

import "fmt"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Codes pushed to /diag.
const (
	CodePattern       = "CMD.PATTERN"
	CodeBrightness    = "CMD.BRIGHTNESS"
	CodeIgnored       = "CMD.IGNORED"
	CodeTestRunning   = "TEST.RUNNING"
	CodeTestDone      = "TEST.DONE"
	CodeTestUnknown   = "TEST.UNKNOWN"
	CodeDriverFailure = "DRIVER.WRITE"
)

func PatternChanged(index int, name, cause string) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     CodePattern,
		Summary:  "Pattern changed",
		Detail:   name,
		Evidence: map[string]any{"index": index, "cause": cause},
	}
}

func BrightnessChanged(value uint8, b byte) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     CodeBrightness,
		Summary:  "Brightness changed",
		Evidence: map[string]any{"value": value, "byte": fmt.Sprintf("0x%02X", b)},
	}
}

// Ignored flags a byte outside both command ranges.
func Ignored(b byte) Diagnostic {
	return Diagnostic{
		Severity:     Warn,
		Code:         CodeIgnored,
		Summary:      "Command byte ignored",
		Evidence:     map[string]any{"byte": fmt.Sprintf("0x%02X", b)},
		LikelyCauses: []string{"baud rate mismatch", "sender using a newer command table"},
	}
}

func SelfTest(kind, state string) Diagnostic {
	switch state {
	case "done":
		return Diagnostic{Severity: Info, Code: CodeTestDone, Summary: "Test complete", Detail: kind}
	case "unknown":
		return Diagnostic{
			Severity: Warn,
			Code:     CodeTestUnknown,
			Summary:  "Unknown test name",
			Evidence: map[string]any{"name": kind},
		}
	}
	return Diagnostic{Severity: Info, Code: CodeTestRunning, Summary: "Running test", Detail: kind}
}

func DriverFailure(driver, detail string) Diagnostic {
	return Diagnostic{
		Severity:       Err,
		Code:           CodeDriverFailure,
		Summary:        "LED driver write failed",
		Detail:         detail,
		Evidence:       map[string]any{"driver": driver},
		SuggestedFixes: []string{"check the data line and power", "restart with driver=sim to isolate"},
	}
}
