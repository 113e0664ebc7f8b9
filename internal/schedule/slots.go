package schedule

// GenerateSlots produces the ordered start times of fixed-length slots that
// fit fully inside the block. Starting at the block's start time it advances
// by durationMinutes while start+duration still fits before the block end.
// A non-positive duration yields no slots.
func GenerateSlots(block WorkingBlock, durationMinutes int) []MinuteOfDay {
	if durationMinutes <= 0 {
		return nil
	}

	var slots []MinuteOfDay
	step := MinuteOfDay(durationMinutes)
	for t := block.StartTime; t+step <= block.EndTime; t += step {
		slots = append(slots, t)
	}
	return slots
}
