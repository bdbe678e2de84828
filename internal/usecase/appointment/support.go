package appointment

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/slot-scheduler/internal/usecase/appointment")

// persistence tags store errors that carry no business code so callers always
// see a structured failure.
func persistence(err error) error {
	if err == nil || httperr.CodeOf(err) != "" {
		return err
	}
	return httperr.Wrap(httperr.CodePersistenceFailure, err, "storage operation failed")
}

const releaseTimeout = 5 * time.Second

// releaseContext keeps the request values but not its cancellation. A slot
// release that repairs calendar state must still run after the client left.
func releaseContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
}
