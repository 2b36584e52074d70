// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xyz

// Simplifier converts extended XYZ files to the basic layout. The zero value
// is ready to use.
type Simplifier struct{}

// Convert reads the extended XYZ file at inputPath and returns its basic-format
// text. The returned text always ends with a newline.
func (Simplifier) Convert(inputPath string) (string, error) {
	rec, err := ReadFile(inputPath)
	if err != nil {
		return "", err
	}
	return Format(rec), nil
}
