package discipline

import "github.com/grindset/grindset/internal/domain"

// Source picks a random index in [0, n). *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

var quotes = []domain.Quote{
	{Quote: "The way to get started is to quit talking and begin doing.", Author: "Walt Disney"},
	{Quote: "Your most unhappy customers are your greatest source of learning.", Author: "Bill Gates"},
	{Quote: "If you are not embarrassed by the first version of your product, you've launched too late.", Author: "Reid Hoffman"},
	{Quote: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Quote: "Don't be afraid to give up the good to go for the great.", Author: "John D. Rockefeller"},
	{Quote: "I find that the harder I work, the more luck I seem to have.", Author: "Thomas Jefferson"},
	{Quote: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Author: "Winston Churchill"},
	{Quote: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Will Durant"},
	{Quote: "Discipline is the bridge between goals and accomplishment.", Author: "Jim Rohn"},
	{Quote: "Opportunities don't happen. You create them.", Author: "Chris Grosser"},
}

// Quotes returns a copy of the fixed quote list.
func Quotes() []domain.Quote {
	out := make([]domain.Quote, len(quotes))
	copy(out, quotes)
	return out
}

// QuoteAt returns the quote at i, wrapping around the list.
func QuoteAt(i int) domain.Quote {
	i %= len(quotes)
	if i < 0 {
		i += len(quotes)
	}
	return quotes[i]
}

// Quote picks a quote uniformly with r.
func Quote(r Source) domain.Quote {
	return quotes[r.IntN(len(quotes))]
}
