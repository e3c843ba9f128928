package pose

// Defaults returns the built-in pose table. Order matters: it is the
// order poses are listed to the operator.
func Defaults() []Pose {
	return []Pose{
		{Name: "rest", Angles: [NumFingers]int{30, 30, 30, 30, 30}},
		{Name: "open", Angles: [NumFingers]int{0, 0, 0, 0, 0}},
		{Name: "fist", Angles: [NumFingers]int{90, 180, 180, 180, 180}},
		{Name: "point", Angles: [NumFingers]int{90, 0, 180, 180, 180}},
		{Name: "pinch", Angles: [NumFingers]int{120, 120, 0, 0, 0}},
		{Name: "thumbs_up", Angles: [NumFingers]int{0, 180, 180, 180, 180}},
	}
}
