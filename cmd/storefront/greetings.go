package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/storefront/pkg/domain"
)

var (
	brandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c04a")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	adminStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
)

func printAccount(w io.Writer, rec domain.SessionRecord) {
	fmt.Fprintf(w, "\n%s\n\n", brandStyle.Render("STOREFRONT"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("name  "), rec.Name)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("email "), rec.Email)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("id    "), rec.ID)
	if rec.IsAdmin {
		fmt.Fprintln(w, adminStyle.Render("admin"))
	}
	fmt.Fprintln(w)
}

func printSignedOut(w io.Writer) {
	hint := labelStyle.Render("To sign in: storefront login")
	fmt.Fprintf(w, "\n%s\n\nNot signed in.\n%s\n\n", brandStyle.Render("STOREFRONT"), hint)
}
