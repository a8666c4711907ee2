//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/intakesync/intakesync --repository.default-branch master --repository.path /

package intakesync
