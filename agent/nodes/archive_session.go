package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
	statex "github.com/nattavee/Fathom-Deep-Research-Agent/agent/state"
)

// ArchiveSession persists the finished session. Archival is a supplement to
// the report, so a store failure is logged and the session still completes.
func ArchiveSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: session state is nil", contractx.ErrValidation)
	}
	if store == nil {
		return in, nil
	}

	if err := store.Save(ctx, in.Session); err != nil {
		log.Error().Err(err).
			Str("session_id", in.SessionID).
			Msg("failed to archive research session")
	}
	return in, nil
}
