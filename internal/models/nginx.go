package models

// CommandResult is the outcome of an nginx control command.
// A failing command is reported with Success=false, not as an HTTP error.
type CommandResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
}

// VersionInfo reports the build the server was compiled from.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
