package worklog

// Extraction is what one strategy produced for one input: the records under
// the strategy's own key names plus non-fatal diagnostics.
type Extraction struct {
	Records  []RawRecord
	Warnings []string
}

// FieldMap lists the strategy-native key names for each canonical field.
// Native names are preferred; the canonical key is always tried last.
type FieldMap struct {
	Employee    []string
	Date        []string
	Time        []string
	StartTime   []string
	EndTime     []string
	Description []string
	Subtask     []string
	Status      []string
}

// Standardize maps raw onto the canonical record shape.
func (m FieldMap) Standardize(raw RawRecord) Record {
	record := Record{
		Employee:    lookup(raw, m.Employee, KeyEmployee),
		Date:        lookup(raw, m.Date, KeyDate),
		StartTime:   lookup(raw, m.StartTime, KeyStartTime),
		EndTime:     lookup(raw, m.EndTime, KeyEndTime),
		Description: lookup(raw, m.Description, KeyDescription),
		Subtask:     lookup(raw, m.Subtask, KeySubtask),
		Status:      lookup(raw, m.Status, KeyStatus),
	}

	if record.StartTime != "" && record.EndTime != "" {
		record.Time = TimeRange(record.StartTime, record.EndTime)
		return record
	}

	record.Time = lookup(raw, m.Time, KeyTime)
	if start, end, ok := SplitTimeRange(record.Time); ok {
		record.Time = TimeRange(start, end)
		record.StartTime = start
		record.EndTime = end
	}
	return record
}

func lookup(raw RawRecord, native []string, canonical string) string {
	keys := make([]string, 0, len(native)+1)
	keys = append(keys, native...)
	keys = append(keys, canonical)
	return raw.Get(keys...)
}
