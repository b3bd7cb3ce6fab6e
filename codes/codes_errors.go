package codes

// CodeCategoryNotFoundError indicates the requested code category does not
// exist.
type CodeCategoryNotFoundError struct {
	CodeCategoryID string
}

func (e *CodeCategoryNotFoundError) Error() string {
	return "code category not found: " + e.CodeCategoryID
}

// CodeNotFoundError indicates the requested code does not exist within its
// category.
type CodeNotFoundError struct {
	CodeCategoryID string
	CodeID         string
}

func (e *CodeNotFoundError) Error() string {
	return "code not found: " + e.CodeCategoryID + "/" + e.CodeID
}

// DuplicateCodeCategoryError indicates a code category with the same ID
// already exists.
type DuplicateCodeCategoryError struct {
	CodeCategoryID string
}

func (e *DuplicateCodeCategoryError) Error() string {
	return "duplicate code category: " + e.CodeCategoryID
}
