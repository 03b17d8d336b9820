package enums

type JudgmentOutcome string

const (
	JudgmentCreated  JudgmentOutcome = "created"
	JudgmentReplaced JudgmentOutcome = "replaced"
)
