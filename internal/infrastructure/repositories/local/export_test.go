package local

// RemoteWebURL exports remoteWebURL for testing.
var RemoteWebURL = remoteWebURL //nolint:gochecknoglobals // test export
