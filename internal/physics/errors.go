package physics

import "errors"

// Configuration errors. Constructors and setters wrap these with the offending value,
// so callers should compare with errors.Is.
var (
	ErrInvalidTimestep    = errors.New("physics: timestep must be positive and finite")
	ErrInvalidInverseMass = errors.New("physics: inverse mass must be finite and >= 0")
	ErrInvalidMass        = errors.New("physics: mass must be > 0")
	ErrInvalidDamping     = errors.New("physics: damping must be in (0, 1]")
	ErrInvalidRadius      = errors.New("physics: radius must be positive and finite")
	ErrDegenerateNormal   = errors.New("physics: plane normal has zero length")
	ErrInvalidSpring      = errors.New("physics: spring constant and rest length must be >= 0")
	ErrNilBody            = errors.New("physics: nil body")
	ErrNilAnchor          = errors.New("physics: nil anchor")
	ErrNilForce           = errors.New("physics: nil force generator")
	ErrDuplicateBody      = errors.New("physics: body already registered")
	ErrUnknownHandle      = errors.New("physics: unknown handle")
)
