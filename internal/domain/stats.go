package domain

// CategoryStat aggregates stored articles by relevance category.
type CategoryStat struct {
	Category RelevanceCategory
	Count    int
	AvgScore float64
}

// SourceStat aggregates stored articles by source.
type SourceStat struct {
	Source   string
	Count    int
	AvgScore float64
}

// LanguageStat counts stored articles per language tag.
type LanguageStat struct {
	Language string
	Count    int
}
