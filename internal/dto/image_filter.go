// ImageFilters describe user-provided filters to narrow the image list.
package dto

type ImageFilters struct {
	Source string
	Limit  int
	Offset int
}
