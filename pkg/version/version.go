package version

var Version = "0.3.0"

const ProtocolVersion = "2024-11-05"

var SupportedProtocolVersions = []string{
	"2024-11-05",
	"2025-03-26",
}
