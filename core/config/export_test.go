package config

// Reset exposes the cache reset to the external test package.
var Reset = reset
