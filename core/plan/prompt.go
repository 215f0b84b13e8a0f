package plan

// systemPrompt instructs the model to return a documentation plan as a bare
// JSON object matching the Plan schema. Kept in one place so every provider
// receives the identical instruction.
const systemPrompt = "You are an assistant that drafts professional documentation. " +
	"Return a concise JSON object with: " +
	"`title` (string), `summary` (2-3 sentence string), " +
	"`sections` (list of {heading, bullets[]}), " +
	"`claims` (patent-style bullet points), " +
	"`certificate_note` (short phrase for certificates). " +
	"Use bullet-ready text, no markdown. Respond with JSON only."
