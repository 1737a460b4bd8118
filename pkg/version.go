package medtrack

// Version is the medtrack release, printed by `medtrack version`.
const Version = "0.1.0"
