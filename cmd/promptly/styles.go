package main

import "github.com/charmbracelet/lipgloss"

// ANSI escape sequences for plain terminal formatting in the chat loop.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
	ansiRed   = "\033[31m"
)

// Centralized style definitions for the interactive pieces.
var (
	// Banner and section titles.
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray

	// Model picker.
	pickerTitleStyle = lipgloss.NewStyle().Bold(true)
	pickerSelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // yellow
	pickerOptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	pickerFreeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	pickerPaidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	pickerHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)

	// General utility styles.
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
