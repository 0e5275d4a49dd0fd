package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/adecon"
	"pkt.systems/adecon/schema"
)

// Run opens the session and drives the workbench until the user quits. The
// session is persisted and closed on the way out.
func Run(ctx context.Context, wb *adecon.Workbench, session schema.SessionKey) error {
	model, err := New(ctx, wb, session)
	if err != nil {
		return err
	}
	defer model.Close()
	defer func() {
		_, _ = wb.Service.CloseSession(context.Background(), schema.CloseSessionRequest{Session: session})
	}()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
