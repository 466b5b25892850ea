// Package scaffold writes the deployment-facing files of a freshly
// generated Rails application: Procfiles, the foreman .env file, the
// PostgreSQL database.yml stanzas, the staging environment file and the
// .gitignore blocks.
//
// Every function takes a *mutate.Mutator rooted at the application
// directory and reports failures as model.CLIError values with
// model.ExitFileMutationFailed.
package scaffold
