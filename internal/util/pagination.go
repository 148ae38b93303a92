package util

import "github.com/SeakMengs/SecCert/internal/constant"

// CalculateTotalPage returns ceil(totalItems / pageSize), so zero items means zero pages.
func CalculateTotalPage(totalItems int64, pageSize int) int {
	if pageSize <= 0 {
		pageSize = constant.DefaultPageSize
	}
	totalPage := int(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) != 0 {
		totalPage++
	}
	return totalPage
}
