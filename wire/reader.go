package wire

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

type readerState int

const (
	stateAwaitDataSetHeader readerState = iota
	stateAwaitTableHeader
	stateInTableFragment
	stateDatasetComplete
	stateFailed
)

func (s readerState) String() string {
	switch s {
	case stateAwaitDataSetHeader:
		return "AwaitDataSetHeader"
	case stateAwaitTableHeader:
		return "AwaitTableHeader"
	case stateInTableFragment:
		return "InTableFragment"
	case stateDatasetComplete:
		return "DatasetComplete"
	case stateFailed:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameReader decodes a v2 response - a JSON array of frames - one frame
// at a time. It is pull-based: the caller drives it by calling Next, and
// each call may buffer more input from the underlying reader. Frame order
// is enforced; a violation puts the reader in a terminal error state.
type FrameReader struct {
	dec     *json.Decoder
	state   readerState
	started bool
	tableID int // most recently opened, not yet completed table
	err     error
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{dec: json.NewDecoder(r)}
}

// Next returns the next frame, or io.EOF once the DataSetCompletion frame
// has been consumed. Any other error is a *ParseError and is terminal.
func (fr *FrameReader) Next() (Frame, error) {
	switch fr.state {
	case stateFailed:
		return nil, fr.err
	case stateDatasetComplete:
		return nil, io.EOF
	}

	if !fr.started {
		tok, err := fr.dec.Token()
		if err != nil {
			return nil, fr.fail("", err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return nil, fr.fail("", fmt.Errorf("expected frame array, got token %v", tok))
		}
		fr.started = true
	}

	if !fr.dec.More() {
		// the stream ended before a DataSetCompletion frame
		return nil, fr.fail("", fmt.Errorf("truncated frame stream"))
	}

	var raw json.RawMessage
	if err := fr.dec.Decode(&raw); err != nil {
		return nil, fr.fail("", err)
	}

	frame, err := decodeFrame(raw)
	if err != nil {
		return nil, fr.fail("", err)
	}

	if err := fr.transition(frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// transition applies the state machine:
//
//	AwaitDataSetHeader -> AwaitTableHeader <-> InTableFragment -> (AwaitTableHeader | DatasetComplete)
func (fr *FrameReader) transition(frame Frame) error {
	switch fr.state {
	case stateAwaitDataSetHeader:
		if _, ok := frame.(*DataSetHeader); !ok {
			return fr.unexpected(frame)
		}
		fr.state = stateAwaitTableHeader

	case stateAwaitTableHeader:
		switch f := frame.(type) {
		case *DataTable:
			// complete table in a single frame, state unchanged
		case *TableHeader:
			fr.tableID = f.TableID
			fr.state = stateInTableFragment
		case *DataSetCompletion:
			fr.state = stateDatasetComplete
		default:
			return fr.unexpected(frame)
		}

	case stateInTableFragment:
		switch f := frame.(type) {
		case *TableFragment:
			if f.TableID != fr.tableID {
				return fr.fail("", fmt.Errorf("fragment for table %d while table %d is open", f.TableID, fr.tableID))
			}
		case *TableProgress:
		case *TableCompletion:
			if f.TableID != fr.tableID {
				return fr.fail("", fmt.Errorf("completion for table %d while table %d is open", f.TableID, fr.tableID))
			}
			fr.state = stateAwaitTableHeader
		default:
			return fr.unexpected(frame)
		}
	}
	return nil
}

func (fr *FrameReader) unexpected(frame Frame) error {
	fr.err = &ParseError{State: fr.state.String(), Frame: string(frame.frameType())}
	fr.state = stateFailed
	return fr.err
}

func (fr *FrameReader) fail(frameType string, err error) error {
	fr.err = &ParseError{State: fr.state.String(), Frame: frameType, Err: err}
	fr.state = stateFailed
	return fr.err
}
