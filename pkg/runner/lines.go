package runner

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

type inputResult struct {
	text string
	err  error
}

// lineReader reads lines on a background goroutine so Input can honor ctx
// while a read is blocked.
type lineReader struct {
	once sync.Once
	ch   chan inputResult
}

func (l *lineReader) start(r *bufio.Reader) <-chan inputResult {
	l.once.Do(func() {
		l.ch = make(chan inputResult)
		go pumpLines(r, l.ch)
	})
	return l.ch
}

func pumpLines(r *bufio.Reader, ch chan<- inputResult) {
	defer close(ch)
	for {
		text, err := r.ReadString('\n')
		if text != "" {
			ch <- inputResult{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				ch <- inputResult{err: err}
			}
			return
		}
	}
}
