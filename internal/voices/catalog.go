package voices

// Voice is one entry in the provider's prebuilt voice catalog.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tone string `json:"tone"`
}

// catalog mirrors the provider's prebuilt voice list. IDs are the names the
// provider expects in the synthesis request; they are stable, not enumerable
// via API, and maintained here by hand.
var catalog = []Voice{
	{ID: "Zephyr", Name: "Zephyr", Tone: "bright"},
	{ID: "Puck", Name: "Puck", Tone: "upbeat"},
	{ID: "Charon", Name: "Charon", Tone: "informative"},
	{ID: "Kore", Name: "Kore", Tone: "firm"},
	{ID: "Fenrir", Name: "Fenrir", Tone: "excitable"},
	{ID: "Leda", Name: "Leda", Tone: "youthful"},
	{ID: "Orus", Name: "Orus", Tone: "firm"},
	{ID: "Aoede", Name: "Aoede", Tone: "breezy"},
	{ID: "Callirrhoe", Name: "Callirrhoe", Tone: "easy-going"},
	{ID: "Autonoe", Name: "Autonoe", Tone: "bright"},
	{ID: "Enceladus", Name: "Enceladus", Tone: "breathy"},
	{ID: "Iapetus", Name: "Iapetus", Tone: "clear"},
	{ID: "Umbriel", Name: "Umbriel", Tone: "easy-going"},
	{ID: "Algieba", Name: "Algieba", Tone: "smooth"},
	{ID: "Despina", Name: "Despina", Tone: "smooth"},
	{ID: "Erinome", Name: "Erinome", Tone: "clear"},
	{ID: "Algenib", Name: "Algenib", Tone: "gravelly"},
	{ID: "Rasalgethi", Name: "Rasalgethi", Tone: "informative"},
	{ID: "Laomedeia", Name: "Laomedeia", Tone: "upbeat"},
	{ID: "Achernar", Name: "Achernar", Tone: "soft"},
	{ID: "Alnilam", Name: "Alnilam", Tone: "firm"},
	{ID: "Schedar", Name: "Schedar", Tone: "even"},
	{ID: "Gacrux", Name: "Gacrux", Tone: "mature"},
	{ID: "Pulcherrima", Name: "Pulcherrima", Tone: "forward"},
	{ID: "Achird", Name: "Achird", Tone: "friendly"},
	{ID: "Zubenelgenubi", Name: "Zubenelgenubi", Tone: "casual"},
	{ID: "Vindemiatrix", Name: "Vindemiatrix", Tone: "gentle"},
	{ID: "Sadachbia", Name: "Sadachbia", Tone: "lively"},
	{ID: "Sadaltager", Name: "Sadaltager", Tone: "knowledgeable"},
	{ID: "Sulafat", Name: "Sulafat", Tone: "warm"},
}

var byID = func() map[string]Voice {
	m := make(map[string]Voice, len(catalog))
	for _, v := range catalog {
		m[v.ID] = v
	}
	return m
}()

// All returns the full catalog in stable order.
func All() []Voice {
	out := make([]Voice, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the voice for the given ID.
func Lookup(id string) (Voice, bool) {
	v, ok := byID[id]
	return v, ok
}
