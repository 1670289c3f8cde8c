package roamler

// pageState is the state of the jobs pagination loop. The jobs endpoint does
// not reliably honour its page parameter (it has been observed to silently
// re-serve page 1 forever), so the loop is an explicit state machine whose
// stopping conditions can be tested in isolation.
type pageState int

const (
	// pageFetching: the last batch contained new records, keep going.
	pageFetching pageState = iota
	// pageExhausted: clean end of data, the server returned an empty batch.
	pageExhausted
	// pageDuplicate: every record in the batch was already seen in a prior
	// page; the server is repeating itself.
	pageDuplicate
	// pageCapped: the hard page cap was hit; a stop, not an error.
	pageCapped
)

func (s pageState) String() string {
	switch s {
	case pageFetching:
		return "fetching"
	case pageExhausted:
		return "exhausted"
	case pageDuplicate:
		return "duplicate-detected"
	case pageCapped:
		return "capped"
	default:
		return "unknown"
	}
}

// maxJobPages is a last-resort safety valve against repetition patterns the
// duplicate check does not catch.
const maxJobPages = 50

// jobsPager accumulates job records across pages, deduplicating by id so
// repeated pages interleaved with genuinely new pages still produce each
// record exactly once, in first-seen order.
type jobsPager struct {
	seen  map[string]bool
	pages int
	jobs  []Job
}

func newJobsPager() *jobsPager {
	return &jobsPager{seen: make(map[string]bool)}
}

// Observe folds one page into the result set and returns the next state.
func (p *jobsPager) Observe(batch []Job) pageState {
	p.pages++

	if len(batch) == 0 {
		return pageExhausted
	}

	fresh := 0
	for _, job := range batch {
		if job.ID == "" || p.seen[job.ID] {
			continue
		}
		p.seen[job.ID] = true
		p.jobs = append(p.jobs, job)
		fresh++
	}

	if fresh == 0 {
		return pageDuplicate
	}
	if p.pages >= maxJobPages {
		return pageCapped
	}
	return pageFetching
}

// Jobs returns the deduplicated records in first-seen order.
func (p *jobsPager) Jobs() []Job {
	return p.jobs
}
