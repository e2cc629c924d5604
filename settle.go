package htmlprint

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSettleTimeout bounds the wait for fonts and images.
const DefaultSettleTimeout = 15 * time.Second

type settleResult struct {
	TimedOut bool `json:"timedOut"`
	Images   int  `json:"images"`
}

// Settle waits until webfonts are ready and every image has loaded or
// failed, or until timeout elapses. A timeout is logged, not returned:
// the document is exported as it stands.
func Settle(ctx context.Context, tab Tab, timeout time.Duration, log logrus.FieldLogger) error {
	if timeout <= 0 {
		timeout = DefaultSettleTimeout
	}
	var res settleResult
	arg := map[string]int64{"timeoutMs": timeout.Milliseconds()}
	if err := tab.Eval(ctx, scriptSettle, arg, &res); err != nil {
		return err
	}
	if res.TimedOut {
		log.WithFields(logrus.Fields{
			"timeout": timeout,
			"images":  res.Images,
		}).Warn("document did not settle before timeout")
	}
	return nil
}
