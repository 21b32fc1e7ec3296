package router

import (
	"strconv"

	"github.com/itchan-dev/itboard/internal/domain"
)

var domainSearchAll = domain.Search{}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
