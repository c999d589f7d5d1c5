// Package correct implements the automatic text corrections of a subtitle
// collection: capitalization, common error correction, removal of hearing
// impaired texts, and line breaking.
//
// Every operation validates its document, indexes and patterns before
// touching the collection. It then computes the new texts of all affected
// entries and commits them as one revertable action through the history,
// or reports a Result for which NoChange is true when no text would differ.
//
//	eng := correct.New(subs, history.New(0))
//	res, err := eng.CorrectCommonErrors(nil, subtitle.Main, table)
//	if err != nil {
//	    return err
//	}
//	if res.NoChange() {
//	    // nothing to do
//	}
//
// Operations are synchronous and must not run concurrently with each other
// or with undo/redo on the same collection.
package correct
