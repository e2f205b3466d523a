package main

import (
	"fmt"
)

// Terminal colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// printSuccess prints a success message
func printSuccess(message string) {
	fmt.Println(colorGreen + "✓ " + message + colorReset)
}

// printError prints an error message
func printError(message string) {
	fmt.Println(colorRed + "✗ " + message + colorReset)
}

// printWarning prints a warning message
func printWarning(message string) {
	fmt.Println(colorYellow + "! " + message + colorReset)
}

// printInfo prints an informational message
func printInfo(message string) {
	fmt.Println(colorBlue + "ℹ " + message + colorReset)
}

// printHeader prints a section header
func printHeader(message string) {
	fmt.Println("\n" + colorCyan + colorBold + message + colorReset)
}
