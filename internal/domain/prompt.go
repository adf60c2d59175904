package domain

type PromptTemplate struct {
	ID                 string
	Name               string
	Language           string
	SystemPrompt       string
	UserPromptTemplate string
	Description        string
}

type Voice struct {
	ID       string
	Name     string
	Category string
}
