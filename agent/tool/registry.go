package tool

// NewResearchDispatcher builds the capability registry a research session
// uses: web search, self-reflection, and a local calculator.
func NewResearchDispatcher(search *SearchClient) (*Dispatcher, error) {
	d := NewDispatcher()
	if search != nil {
		if err := d.Register(SearchToolInfo(), search.Handler()); err != nil {
			return nil, err
		}
	}
	if err := d.Register(ThinkToolInfo(), ThinkHandler); err != nil {
		return nil, err
	}
	if err := d.Register(CalcToolInfo(), CalcHandler); err != nil {
		return nil, err
	}
	return d, nil
}
