package responses

type Stats struct {
	NumberOfNavEntries      int `json:"numberOfNavEntries"`
	NumberOfSidebarPrefixes int `json:"numberOfSidebarPrefixes"`
	NumberOfLinks           int `json:"numberOfLinks"`
	// seconds
	RepoRuntime float64 `json:"repoRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}
