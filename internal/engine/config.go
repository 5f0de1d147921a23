package engine

import "time"

// Config holds the tunables spec.md §6 lists as constants with defaults.
// The zero value is valid; setDefaults fills in anything left unset, the
// same pattern as the teacher's SummaryOptions/LocalAddrListerOptions.
type Config struct {
	// ProbeTimeout bounds a single C2 connect attempt. Default 5s.
	ProbeTimeout time.Duration
	// SweepInterval is how often the poller and monitor wake. Default 10s.
	SweepInterval time.Duration
	// MaxDestinations bounds the destination set; trimmed back on every
	// sixth monitor tick. Default 10.
	MaxDestinations int
	// Port is the destination port used for probes. Default 80.
	Port int
	// MonitorTicksBeforeThrottle is how many monitor ticks log
	// unconditionally before falling back to every tenth tick. Default 3.
	MonitorTicksBeforeThrottle int
	// MonitorRefreshEveryNTicks is how often the monitor refreshes the
	// source inventory and trims the destination set. Default 6.
	MonitorRefreshEveryNTicks int
	// MonitorLogEveryNTicks is the throttled logging cadence once
	// MonitorTicksBeforeThrottle has elapsed. Default 10.
	MonitorLogEveryNTicks int
	// AnchorAttempts bounds how many random anchor ids are tried per
	// address family during Init. Default 9.
	AnchorAttempts int
	// AnchorIDMin/AnchorIDMax bound the randomly chosen anchor probe id
	// range. Defaults 6000/7200, matching the original prototype's probe
	// id range.
	AnchorIDMin, AnchorIDMax int
}

func (c *Config) setDefaults() {
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 10 * time.Second
	}
	if c.MaxDestinations <= 0 {
		c.MaxDestinations = 10
	}
	if c.Port <= 0 {
		c.Port = 80
	}
	if c.MonitorTicksBeforeThrottle <= 0 {
		c.MonitorTicksBeforeThrottle = 3
	}
	if c.MonitorRefreshEveryNTicks <= 0 {
		c.MonitorRefreshEveryNTicks = 6
	}
	if c.MonitorLogEveryNTicks <= 0 {
		c.MonitorLogEveryNTicks = 10
	}
	if c.AnchorAttempts <= 0 {
		c.AnchorAttempts = 9
	}
	if c.AnchorIDMin <= 0 {
		c.AnchorIDMin = 6000
	}
	if c.AnchorIDMax <= 0 {
		c.AnchorIDMax = 7200
	}
}
