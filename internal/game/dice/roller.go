package dice

import "go.uber.org/zap"

// Roller rolls expressions against a Source and logs every roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller returns a Roller. A nil logger disables logging.
//
// Precondition: src must not be nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Roll evaluates e and logs the result.
func (r *Roller) Roll(e Expr) Result {
	res := e.Roll(r.src)
	if !e.IsFlat() {
		r.logger.Debug("dice roll",
			zap.String("expression", res.Expr),
			zap.Ints("dice", res.Dice),
			zap.Int("modifier", res.Modifier),
			zap.Int("total", res.Total()),
		)
	}
	return res
}
