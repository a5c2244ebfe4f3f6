// Package commands defines the irisctl CLI.
//
// Commands
//
//   - train    Fit the classifier on the iris dataset and write the model file
//   - smoke    Run end-to-end checks against a running API
//
// The root command builds the logger before any subcommand runs and puts it
// into the command context, so the services log the same way they do inside
// the API process.
package commands
