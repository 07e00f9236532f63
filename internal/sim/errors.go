package sim

import (
	"fmt"

	reelerrors "github.com/tessro/reel/internal/errors"
)

var errFullscreen = fmt.Errorf("simulated media: %w", reelerrors.ErrFullscreenUnsupported)
