// Package integrity defines the error taxonomy raised by the navigation,
// signature, and hash verification packages. Every repository-integrity
// failure implements the Error interface so callers can type-switch on
// specific failure classes without parsing message strings.
package integrity

import "fmt"

// Error is implemented by every repository-integrity failure. Usage errors
// (invalid navigation direction, unknown verification mode, wrong key input
// type) are NOT integrity.Errors — they are returned as plain errors,
// surfacing a caller mistake rather than a finding about the repository.
type Error interface {
	error
	integrityError()
}

// NoDistsPathError is raised when a "dists" directory cannot be found at the
// repository base while enumerating suites in non-flat mode.
type NoDistsPathError struct{}

func (e *NoDistsPathError) Error() string {
	return "could not find dists folder in repository base"
}

func (e *NoDistsPathError) integrityError() {}

// FileError is the base of every file-level integrity failure. FileMentionedBy
// names the manifest (a Release or Packages URL) that referenced File, so a
// failure can be traced back to the document that promised it would exist.
type FileError struct {
	File            string
	FileMentionedBy string
}

func (e *FileError) mentionSuffix() string {
	if e.FileMentionedBy == "" {
		return " "
	}
	return fmt.Sprintf(", mentioned in %s, ", e.FileMentionedBy)
}

// FileRequestError is raised when a file promised by a manifest could not be
// fetched (a non-200 HTTP status, surfaced by the fetcher).
type FileRequestError struct {
	FileError
	Status int
}

func (e *FileRequestError) Error() string {
	return fmt.Sprintf("file %s%scould not be requested from the repository - Status Code: %d",
		e.File, e.mentionSuffix(), e.Status)
}

func (e *FileRequestError) integrityError() {}

// Algorithm identifies which hash table a HashInvalidError failed under.
type Algorithm string

const (
	AlgorithmMD5Sum Algorithm = "MD5Sum"
	AlgorithmSHA1   Algorithm = "SHA1"
	AlgorithmSHA256 Algorithm = "SHA256"
)

// HashInvalidError is raised when a fetched file's digest, under the named
// algorithm, does not match the value declared in the manifest that
// mentioned it. The Algorithm field lets MD5SumInvalid/SHA1Invalid/
// SHA256Invalid be expressed as one type instead of three, while still
// letting callers match on the weakest-failing-algorithm-first convention
// described in the hash verifier.
type HashInvalidError struct {
	FileError
	Algorithm Algorithm
}

func (e *HashInvalidError) Error() string {
	return fmt.Sprintf("%s of %s mentioned in %s is invalid", e.Algorithm, e.File, e.FileMentionedBy)
}

func (e *HashInvalidError) integrityError() {}

// MD5SumInvalid, SHA1Invalid, and SHA256Invalid build HashInvalidError values
// for the corresponding algorithm, mirroring the three named exception
// subclasses of the source taxonomy without needing actual subtypes.
func MD5SumInvalid(file, mentionedBy string) *HashInvalidError {
	return &HashInvalidError{FileError{File: file, FileMentionedBy: mentionedBy}, AlgorithmMD5Sum}
}

func SHA1Invalid(file, mentionedBy string) *HashInvalidError {
	return &HashInvalidError{FileError{File: file, FileMentionedBy: mentionedBy}, AlgorithmSHA1}
}

func SHA256Invalid(file, mentionedBy string) *HashInvalidError {
	return &HashInvalidError{FileError{File: file, FileMentionedBy: mentionedBy}, AlgorithmSHA256}
}

// NewHashInvalid builds a HashInvalidError for an algorithm chosen at
// runtime, for call sites that cycle through all three algorithms
// generically instead of calling one of the three named constructors above.
func NewHashInvalid(algo Algorithm, file, mentionedBy string) *HashInvalidError {
	return &HashInvalidError{FileError{File: file, FileMentionedBy: mentionedBy}, algo}
}
