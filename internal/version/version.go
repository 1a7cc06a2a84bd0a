package version

// Version is overridden at build time with
// -ldflags "-X github.com/isobit/graphiql-console/internal/version.Version=..."
var Version = "dev"
