package lars

// Version is the current version of the lars library and CLI
const Version = "0.3.0"
