package music

// Method is the kind of mutation recorded in the transaction log.
type Method string

const (
	MethodCreate Method = "CREATE"
	MethodUpdate Method = "UPDATE"
	MethodDelete Method = "DELETE"
)

// TimeLayout is the fixed-width UTC layout used for transaction times, so
// that lexicographic order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Transaction is one immutable audit entry describing a mutation.
type Transaction struct {
	Time     string `json:"time"`
	Method   Method `json:"method"`
	Entity   Kind   `json:"entity"`
	EntityID string `json:"id"`
	Title    string `json:"title,omitempty"`
}

// NewTransaction builds an entry for e; the log assigns Time on append.
func NewTransaction(method Method, e Entity) Transaction {
	return Transaction{
		Method:   method,
		Entity:   e.Kind(),
		EntityID: e.RecordID(),
		Title:    e.RecordTitle(),
	}
}
