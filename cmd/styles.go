package main

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	urlStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("12"))
)
