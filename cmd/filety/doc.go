// Command filety processes extract files from the command line.
//
// It runs the same pipeline as the HTTP server: files are read with their
// category's reader, typed, checked and written as CSV. Without --store
// nothing leaves the local machine; with it, backups and published output
// go to the configured storage backend and, when a database URL is set,
// rows are loaded into PostgreSQL.
//
//	filety categories
//	filety decode DMCO extract.dat --limit 5
//	filety process S1cail nav.csv -o nav.out.csv
//	filety inbox run
//	filety reset DMCO TMCO --yes
package main
