package systems

import "errors"

// Spawn and ledger failure modes. None of these escape a tick; callers log
// them and skip the affected attempt.
var (
	// ErrUnknownKind is returned when the factory is asked for a kind it has no profile for.
	ErrUnknownKind = errors.New("unknown parasite kind")
	// ErrNoEnergy is returned when the energy budget cannot pay for a spawn.
	ErrNoEnergy = errors.New("insufficient spawn energy")
	// ErrLocationFull is returned when a location is at its live cap.
	ErrLocationFull = errors.New("location at capacity")
	// ErrPopulationCap is returned when the global active cap is reached.
	ErrPopulationCap = errors.New("active population cap reached")
	// ErrUnknownParasite is returned for IDs not present in the registry.
	ErrUnknownParasite = errors.New("unknown parasite")
	// ErrUnknownController is returned for controller IDs the ledger does not hold.
	ErrUnknownController = errors.New("unknown controller")
)
