package github

// GraphqlEndpoint exports graphqlEndpoint for testing.
var GraphqlEndpoint = graphqlEndpoint //nolint:gochecknoglobals // test export

// OwnerFromURL exports ownerFromURL for testing.
var OwnerFromURL = ownerFromURL //nolint:gochecknoglobals // test export
