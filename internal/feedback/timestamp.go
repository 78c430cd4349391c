package feedback

import (
	"strconv"
	"strings"
)

// ClockSeconds parses a display timestamp into whole seconds. Accepted
// forms: "MM:SS", "HH:MM:SS", or a bare numeric seconds string. Anything
// unreadable maps to 0.
func ClockSeconds(ts string) int {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return 0
	}
	if strings.Contains(ts, ":") {
		parts := strings.Split(ts, ":")
		nums := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return 0
			}
			nums = append(nums, n)
		}
		switch len(nums) {
		case 2:
			return nums[0]*60 + nums[1]
		case 3:
			return nums[0]*3600 + nums[1]*60 + nums[2]
		}
		return 0
	}
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
