package engine

// Audio output format.
const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// Window defaults.
const (
	WindowWidth  = 840
	WindowHeight = 840
)

// Hard ceilings for every closed feedback path. Sampled parameters are
// clamped against these at sample time and again at use time.
const (
	FeedbackCeiling = 0.95 // audio stage feedback gain, strictly below 1
	WarpCeiling     = 0.65 // peak nonlinear cross-warp strength
	MasterDrive     = 0.85 // saturator drive on stages and master
)

// Drift integration.
const (
	// MaxDriftStep caps the elapsed time applied per step so a backgrounded
	// window resumes smoothly instead of jumping.
	MaxDriftStep = 0.05
)

// Audible/visible frequency band. Reroll can sample outliers; every consumer
// clamps to this band before use so a live frequency multiplier can never
// push the engine into degenerate all-high or all-low behavior.
const (
	FreqMin = 27.5
	FreqMax = 7040.0
)

// Visual sampling.
const (
	DefaultDensity = 1400 // field samples stamped per tick at density 1.0
	SampleWindow   = 1.0  // seconds of signal time each tick draws from
	PhaseSpread    = 0.02 // random phase jitter per stamp, in cycles
	RasterPad      = 0.08 // fraction of each raster edge left as margin
)

// Compositor self-projection bounds. Repeated application must converge,
// so the similarity transform stays within these of identity.
const (
	FeedbackZoomMax  = 0.005 // relative scale deviation
	FeedbackRotMax   = 0.015 // radians
	FeedbackShiftMax = 3.0   // device pixels
)

// Audio parameter ramps: one-pole smoothing time constant in seconds.
// Live knob changes reach oscillators and feedback gains through these
// ramps only, never as instant replacement.
const RampTau = 0.018

// Live knob ranges.
const (
	FreqScaleMin = 0.25
	FreqScaleMax = 4.0
	FeedScaleMin = 0.0
	FeedScaleMax = 1.5
	DensityMin   = 0.1
	DensityMax   = 3.0
	ExposureMin  = 0.2
	ExposureMax  = 3.0
)
