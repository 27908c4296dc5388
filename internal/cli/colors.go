package cli

import (
	"fmt"
	"os"
)

const (
	ResetCode = "\033[0m"
	DimCode   = "\033[2m"
	Black     = "\033[90m"
	Red       = "\033[31m"
	Green     = "\033[32m"
	Yellow    = "\033[33m"
	Blue      = "\033[34m"
	Purple    = "\033[35m"
	Cyan      = "\033[36m"
)

// disableColor is a cached check for the environment variable
var disableColor = checkNoColor()

func checkNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Enabled reports whether ANSI colors should be emitted.
func Enabled() bool {
	return !disableColor
}

// Stylize wraps text in a specific color code
func Stylize(text string, colorCode string) string {
	if disableColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, ResetCode)
}

func CheckMark() string {
	return Stylize("✔", Green)
}

func CrossMark() string {
	return Stylize("✘", Red)
}

func WarningSign() string {
	return Stylize("⚠", Yellow)
}
