package asserts

import "strings"

func Holds(condition bool, msg ...string) (ret bool) {
	if ret = condition; !ret {
		if len(msg) == 0 {
			panic("assertion error")
		}
		panic("assertion error: " + strings.Join(msg, " "))
	}
	return
}
