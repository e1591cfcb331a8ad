// ImagesData is a paginated response payload for the indexed image list.
package dto

type ImagesData struct {
	Images      []ImageInfo `json:"images"`
	Length      int         `json:"length"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Limit       int         `json:"pageSize"`
}
