package env

// Prefix is the env var prefix for all fxcore flags
const Prefix = "FXCORE"
