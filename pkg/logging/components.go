package logging

// Component-specific loggers for easy incremental adoption

// Lock logger for bus lock manager operations
var Lock = NewLogger("buslock")

// Proc logger for procfs inspection
var Proc = NewLogger("procinfo")

// EDID logger for sideband probe operations
var EDID = NewLogger("edid")

// Metrics logger for statistics collection
var Metrics = NewLogger("metrics")

// CLI logger for command line operations
var CLI = NewLogger("cli")
