package round

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// StdConsole is the interactive console collaborator: it prompts for one
// integer per round and prints each completed round. Input is tokenized by
// whitespace, so several values on one line are consumed over several rounds.
// End of input is mapped to the termination sentinel.
type StdConsole struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewStdConsole(in io.Reader, out io.Writer) *StdConsole {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &StdConsole{in: sc, out: out}
}

func (c *StdConsole) NextIntervals() (int, error) {
	if _, err := fmt.Fprint(c.out, "Enter the number of intervals: (0 quits) "); err != nil {
		return 0, err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	n, err := strconv.Atoi(c.in.Text())
	if err != nil {
		return 0, fmt.Errorf("round: parse intervals %q: %w", c.in.Text(), err)
	}
	return n, nil
}

func (c *StdConsole) Report(r Result) error {
	if _, err := fmt.Fprintf(c.out, "elapsed time is %.4f seconds\n", r.Elapsed); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.out, "pi is approximately %.16f, Error is %.16f\n", r.Value, r.AbsError)
	return err
}
