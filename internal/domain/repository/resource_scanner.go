package repository

// ResourceScanner lists the addresses declared by a generated document.
type ResourceScanner interface {
	Scan(fileName, doc string) ([]string, error)
}
