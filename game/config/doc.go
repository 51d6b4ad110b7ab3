// Package config manages the local board library.
//
// The config package handles:
//   - Loading board documents from JSON files
//   - Structural validation of every loaded board
//   - Default board selection
//   - Saving boards downloaded from the server catalog
//
// Board Format:
//
// Boards are stored one per file in the boards directory, in the same JSON
// form the server catalog serves (printDate, editor, constructors,
// spangram, clue, startingBoard, solutions, themeCoords). The file name
// without its .json extension is the board id.
//
// Default Board:
//
// The default board is "default.json" if present, otherwise the first valid
// file in name order, otherwise the built-in placeholder board. A missing
// boards directory is not an error; the library is simply empty until a
// board is saved.
//
// Usage:
//
//	manager, err := config.NewManager("boards")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	doc, err := manager.LoadBoard("2024-05-24")
//	if errors.Is(err, config.ErrBoardNotFound) {
//		// not in the library
//	}
//
//	boards, err := manager.ListBoards()
//	def := manager.GetDefault()
package config
