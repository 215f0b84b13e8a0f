package plan

// Fallback builds the static plan used when AI is disabled or errors out.
// It is pure: the same message and filename always produce the same plan,
// and the result already satisfies the Normalize invariants.
func Fallback(message, filename string) Plan {
	fileNote := "No upload provided."
	if filename != "" {
		fileNote = "Uploaded file: " + filename
	}

	return Plan{
		Title:   DefaultTitle,
		Summary: SummaryFor(message),
		Sections: []Section{
			{
				Heading: "Overview",
				Bullets: []string{
					"Project statement received and logged.",
					"ASTHRA generated offline demo content.",
					fileNote,
				},
			},
			{
				Heading: "Objectives",
				Bullets: []string{
					"Demonstrate PDF, PPT, patent draft, and certificates.",
					"Content is sample-only when AI is disabled.",
				},
			},
			{
				Heading: "Next Steps",
				Bullets: []string{
					"Enable AI (set OPENAI_API_KEY) for richer drafts.",
					"Refine requirements and rerun generation.",
				},
			},
		},
		Claims: []string{
			"A system that generates multiple documentation artifacts from one input.",
			"Automated slide and patent-style drafting based on project descriptions.",
		},
		CertificateNote: "Demo certificate generated in offline mode.",
	}
}
