// Package uitest provides testing utilities for Bubble Tea models.
//
// [NewTestModel] runs a model in a virtual terminal of a given [Size]:
//
//	func TestBrowser(t *testing.T) {
//	    t.Parallel()
//
//	    tm := uitest.NewTestModel(t, ui.New(cfg), uitest.Standard)
//	    uitest.WaitFor(t, tm.Output(), uitest.Contains("Intro"))
//
//	    tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
//	    tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
//	}
package uitest
