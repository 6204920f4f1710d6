package goquery_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
	gq "github.com/cpsdqs/pokedex-dictgen/goquery"
	"github.com/cpsdqs/pokedex-dictgen/mock"
)

// entryPage renders a content page with the layout ExtractEntry expects,
// parameterized over the image gallery rows.
func entryPage(galleryRows string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body><div class="mw-parser-output">
<table class="roundy" style="background: #abc; margin: 0">
<tbody>
<tr><td>
  <table><tbody>
  <tr>
    <td>
      <table><tbody><tr>
        <td>
          <big><b>Squirtle</b></big>
          <a href="/wiki/Pok%%C3%%A9mon_category" title="Category"><span><small>Tiny Turtle</small><br><small>Pok&#233;mon</small><br></span></a>
        </td>
        <td><span lang="ja">ゼニガメ</span><br><i>Zenigame</i></td>
      </tr></tbody></table>
    </td>
    <td><a href="/wiki/List_of_Pok%%C3%%A9mon">#0007</a></td>
  </tr>
  <tr><td>
    <table><tbody>
    %s
    </tbody></table>
  </td></tr>
  </tbody></table>
</td></tr>
<tr><td>Type Water</td></tr>
<tr><td>Gender ratio 87.5%% male</td></tr>
<tr><td>Egg groups</td></tr>
</tbody>
</table>
<table><tbody><tr><td>dummy nav</td></tr></tbody></table>
<p>Summary about <a href="/wiki/Squirtle_(Pok%%C3%%A9mon)" title="Squirtle">Squirtle</a>.</p>
<div id="toc">contents</div>
<p>Body paragraph.</p>
<h2>Biology</h2>
<p>Biology text.</p>
<h2>Game data</h2>
<p>never included</p>
</div></body></html>`, galleryRows)
}

const defaultGallery = `
<tr><td>
  <a href="/wiki/File:0007Squirtle.png"><img src="sq.png" alt="Squirtle" width="250" height="250"></a>
  <br><small>Blue shell</small>
</td></tr>
<tr style="display: none"><td><img src="hidden.png" width="80"></td></tr>
<tr><td><a href="https://archives.bulbagarden.net/">Additional artwork on the Archives</a></td></tr>
`

func TestExtractEntry(t *testing.T) {
	t.Parallel()

	index := &dictgen.Index{
		Pages: map[dictgen.DexID]string{7: squirtleURL},
	}
	images := &mock.ImageCache{
		GetFn: func(_ context.Context, url string) (string, error) {
			return "0007Squirtle.png", nil
		},
	}
	cfg := dictgen.Config{MaxBodySections: 1}

	t.Run("extracts the complete entry record", func(t *testing.T) {
		t.Parallel()

		entry, err := gq.ExtractEntry(context.Background(), entryPage(defaultGallery), index, images, cfg, squirtleURL)
		require.NoError(t, err)
		require.NoError(t, entry.Validate())

		assert.Equal(t, squirtleURL, entry.URL)
		assert.Equal(t, dictgen.DexID(7), entry.DexID)
		assert.Equal(t, "#0007", entry.DexID.String())
		assert.Equal(t, "Squirtle", entry.Name)
		assert.Equal(t, []string{"<small>Tiny Turtle</small>", "<small>Pokémon</small>"}, entry.CategoriesHTML)
		assert.Equal(t, "ゼニガメ", entry.NameJPText)
		assert.Contains(t, entry.NameJPHTML, "ゼニガメ")
		assert.Contains(t, entry.NameJPTranslitHTML, "Zenigame")
		assert.Equal(t, map[string]string{"background": "#abc"}, entry.InfoBoxStyle)

		require.Len(t, entry.Images, 1)
		img := entry.Images[0]
		assert.Equal(t, "https://bulbapedia.bulbagarden.net/wiki/File:0007Squirtle.png", img.Href)
		assert.Equal(t, "Squirtle", img.Alt)
		assert.Equal(t, 250, img.Width)
		assert.Equal(t, "images/0007Squirtle.png", img.Src)
		assert.False(t, img.Flex)
		assert.True(t, img.HasCaption)
		assert.Equal(t, "Blue shell", img.CaptionText)
		assert.Equal(t, "Blue shell", img.CaptionHTML)

		require.Len(t, entry.TopInfoHTML, 1)
		assert.Contains(t, entry.TopInfoHTML[0], "Type Water")
		require.Len(t, entry.ExtraInfoHTML, 2)
		assert.Contains(t, entry.ExtraInfoHTML[0], "Gender ratio")
		assert.Contains(t, entry.ExtraInfoHTML[1], "Egg groups")

		assert.Contains(t, entry.SummaryHTML, "Summary about")
		assert.Contains(t, entry.SummaryHTML, "x-dictionary:r:pokemon-7")
		assert.NotContains(t, entry.SummaryHTML, "dummy nav")
		assert.Contains(t, entry.BodyHTML, "Body paragraph.")
		assert.Contains(t, entry.BodyHTML, "Biology text.")
		assert.NotContains(t, entry.BodyHTML, "never included")
	})

	t.Run("marks images sharing a row as a flex group", func(t *testing.T) {
		t.Parallel()

		gallery := `
<tr>
  <td><a href="/wiki/File:A.png"><img src="a.png" alt="A" width="120"></a></td>
  <td><a href="/wiki/File:B.png"><img src="b.png" alt="B" width="120"></a></td>
</tr>
`
		entry, err := gq.ExtractEntry(context.Background(), entryPage(gallery), index, images, cfg, squirtleURL)
		require.NoError(t, err)

		require.Len(t, entry.Images, 2)
		assert.True(t, entry.Images[0].Flex)
		assert.True(t, entry.Images[1].Flex)
		assert.False(t, entry.Images[0].HasCaption)
	})

	t.Run("skips hidden gallery cells when counting flex members", func(t *testing.T) {
		t.Parallel()

		gallery := `
<tr>
  <td><a href="/wiki/File:A.png"><img src="a.png" alt="A" width="120"></a></td>
  <td style="display: none"><a href="/wiki/File:B.png"><img src="b.png" alt="B" width="120"></a></td>
</tr>
`
		entry, err := gq.ExtractEntry(context.Background(), entryPage(gallery), index, images, cfg, squirtleURL)
		require.NoError(t, err)

		require.Len(t, entry.Images, 1)
		assert.False(t, entry.Images[0].Flex)
	})

	t.Run("fails on a gallery cell without an image", func(t *testing.T) {
		t.Parallel()

		gallery := `<tr><td><a href="/wiki/Elsewhere">no picture here</a></td></tr>`

		_, err := gq.ExtractEntry(context.Background(), entryPage(gallery), index, images, cfg, squirtleURL)

		require.Error(t, err)
		assert.Equal(t, dictgen.ESTRUCTURE, dictgen.ErrorCode(err))
	})

	t.Run("fails when the info box is missing", func(t *testing.T) {
		t.Parallel()

		_, err := gq.ExtractEntry(context.Background(), "<html><body><p>nothing</p></body></html>", index, images, cfg, squirtleURL)

		require.Error(t, err)
		assert.Equal(t, dictgen.ESTRUCTURE, dictgen.ErrorCode(err))
		assert.Contains(t, dictgen.ErrorMessage(err), "info box")
	})

	t.Run("propagates image cache failures", func(t *testing.T) {
		t.Parallel()

		failing := &mock.ImageCache{
			GetFn: func(_ context.Context, url string) (string, error) {
				return "", fmt.Errorf("socket closed")
			},
		}

		_, err := gq.ExtractEntry(context.Background(), entryPage(defaultGallery), index, failing, cfg, squirtleURL)

		require.Error(t, err)
		assert.Equal(t, dictgen.EDOWNSTREAM, dictgen.ErrorCode(err))
	})
}
