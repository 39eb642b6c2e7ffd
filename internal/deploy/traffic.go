package deploy

import (
	"context"

	"questctl/internal/config"
)

// updateTrafficRouting applies the configured strategy. Rolling needs no
// action here: the hosting platforms shift traffic as instances pass their
// own health checks. The blue-green cutover is simulated; wiring it to a real
// load balancer or DNS switch is an explicit extension point.
func (o *Orchestrator) updateTrafficRouting(ctx context.Context, run *Run) error {
	switch o.cfg.Deployment.Strategy {
	case config.StrategyBlueGreen:
		run.Info("Blue-green cutover: routing traffic to the new stack (simulated)")
	default:
		run.Info("Rolling strategy: traffic shifts as new instances come up")
	}
	return nil
}
