package remote

import "strings"

const chatInstruction = "You are an expert assistant for extracting structured time log data from any text. " +
	"For each record in the input, extract the following fields: Employee (name), Description (task), " +
	"Date (in DD.MM.YYYY), Start Time (in HH:MM, 24-hour), End Time (in HH:MM, 24-hour). " +
	"If a field is missing or cannot be determined, set its value to null. " +
	"Return the output as a JSON array, with one object per record. "

var chatExamples = []struct {
	input  string
	output string
}{
	{
		input: "Employee 1: Markus Lange\n1 April, 2025\n9:00 – 12:00 → Frontend-Insider-Tool Abstimmung",
		output: `[
  {"name": "Markus Lange", "description": "Frontend-Insider-Tool Abstimmung", "date": "01.04.2025", "start_time": "09:00", "end_time": "12:00"}
]`,
	},
	{
		input: "Hi my name is Markus and I worked on task X on April 2 from 9-5 pm",
		output: `[
  {"name": "Markus", "description": "task X", "date": "02.04.2025", "start_time": "09:00", "end_time": "17:00"}
]`,
	},
	{
		input: "John did some work",
		output: `[
  {"name": "John", "description": null, "date": null, "start_time": null, "end_time": null}
]`,
	},
	{
		input: "Markus worked on X from 10:00 to 12:00. Sarah worked on Y on 3 April, 2025 from 13:00 to 15:00.",
		output: `[
  {"name": "Markus", "description": "X", "date": null, "start_time": "10:00", "end_time": "12:00"},
  {"name": "Sarah", "description": "Y", "date": "03.04.2025", "start_time": "13:00", "end_time": "15:00"}
]`,
	},
}

// ChatPrompt builds the few-shot instruction for the chat completion endpoint.
func ChatPrompt(text string) string {
	var b strings.Builder
	b.WriteString(chatInstruction)
	b.WriteString("\n\nHere are some examples of input and expected output:\n")
	for _, example := range chatExamples {
		b.WriteString("Input: ")
		b.WriteString(example.input)
		b.WriteString("\nOutput: ")
		b.WriteString(example.output)
		b.WriteString("\n")
	}
	b.WriteString("\nInput: ")
	b.WriteString(text)
	b.WriteString("\nOutput:")
	return b.String()
}

// ChatSystemContext is the side-channel message carrying the taxonomy.
func ChatSystemContext(taxonomy TaxonomyContext) string {
	return "Project/task definitions: " + taxonomyJSON(taxonomy)
}

// ContentPrompt builds the single-part prompt for the content generation endpoint.
func ContentPrompt(text string, taxonomy TaxonomyContext) string {
	return "Extract structured time log data from the following text. " +
		"For each entry, output: Employee, Date (MM:DD:YYYY), Time (start-end), Description, " +
		"Subtask (the most specific mapped subtask, e.g., '(ML) - EuP - April'25'). " +
		"If mapping is ambiguous, set Subtask to 'Ambiguous (requires verification)'. " +
		"Output a JSON array.\nText:\n" + text +
		"\nProject/task definitions: " + taxonomyJSON(taxonomy)
}

func taxonomyJSON(taxonomy TaxonomyContext) string {
	if taxonomy == nil {
		return "{}"
	}
	return taxonomy.JSON()
}
