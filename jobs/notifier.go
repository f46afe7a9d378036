package jobs

import (
	"context"

	"github.com/sisdisciplinar/sisdisciplinar/internal/processes"
)

// CaseNotifier bridges the case service to the queue.
type CaseNotifier struct {
	client *Client
}

// NewCaseNotifier builds a CaseNotifier instance.
func NewCaseNotifier(client *Client) *CaseNotifier {
	return &CaseNotifier{client: client}
}

// CaseOpened enqueues the notification for a newly opened case.
func (n *CaseNotifier) CaseOpened(ctx context.Context, p processes.Process) error {
	if n == nil || n.client == nil {
		return nil
	}
	_, err := n.client.EnqueueCaseOpened(ctx, CaseOpenedPayload{
		ProcessID:     p.ID.String(),
		FuncionarioID: p.FuncionarioID.String(),
		Gravidade:     p.Gravidade,
		TipoConduta:   p.TipoConduta,
	})
	return err
}
