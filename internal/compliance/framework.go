package compliance

// Framework represents the regulatory framework the requirements belong to
type Framework struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Region      string     `json:"region"`
	Law         string     `json:"law"`
	Categories  []Category `json:"categories"`
}

// NIS2FrameworkID identifies the Greek transposition of the NIS2 directive.
const NIS2FrameworkID = "nis2-gr"

// SupportedFrameworks returns all compliance frameworks supported by the tool
func SupportedFrameworks() []Framework {
	return []Framework{
		{
			ID:          NIS2FrameworkID,
			Name:        "NIS2 Directive (EU) 2022/2555",
			Description: "Cybersecurity risk-management measures for essential and important entities",
			Region:      "Greece",
			Law:         "Law 5160/2024",
			Categories:  Categories(),
		},
	}
}

// GetFramework returns a specific framework by ID
func GetFramework(id string) *Framework {
	for _, fw := range SupportedFrameworks() {
		if fw.ID == id {
			return &fw
		}
	}
	return nil
}

// DefaultFramework returns the framework the bundled requirements implement
func DefaultFramework() Framework {
	return *GetFramework(NIS2FrameworkID)
}
