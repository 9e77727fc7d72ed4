package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/orderlens/internal/analysis"
	"github.com/KaramelBytes/orderlens/internal/columns"
	"github.com/KaramelBytes/orderlens/internal/parser"
	"github.com/KaramelBytes/orderlens/internal/store"
)

const report = "订单 ID,内容ID,达人用户名,商品名称,Seller Sku,下单件数\n" +
	"o1,v1,Alice,Shirt,shirt-red,3\n" +
	"o2,v1,Alice,Shirt,shirt-blue,2\n" +
	"o3,v2,Bob,Mug,mug-white,4\n"

func views(t *testing.T, q analysis.Query) *analysis.Views {
	t.Helper()
	tbl := parser.ParseText(report)
	require.Len(t, tbl.Rows, 3)
	return analysis.DeriveViews(tbl.Rows, tbl.Headers(), columns.DefaultFragments(), q)
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, views(t, analysis.Query{}), "table"))
	out := buf.String()
	assert.Contains(t, out, "Orders 3")
	assert.Contains(t, out, "Units 9")
	assert.Contains(t, out, "CONTENT")
	assert.Contains(t, out, "shirt-red(3), shirt-blue(2)")
	assert.Contains(t, out, "(2 contents)")
	assert.Contains(t, out, "https://www.tiktok.com/@/video/v1")
	assert.Contains(t, out, "content 2 · creator 2 · product 2")
}

func TestWrite_TableBannerCountsFiles(t *testing.T) {
	v := views(t, analysis.Query{})
	v.Sources = []store.Source{{ID: "a", Path: "a.csv", Rows: 3}, {ID: "b", Path: "b.xlsx", Err: "broken"}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v, "table"))
	assert.Contains(t, buf.String(), "3 rows from 2 files")
}

func TestWrite_TableNoMatches(t *testing.T) {
	var buf bytes.Buffer
	v := views(t, analysis.Query{Search: "nothing"})
	require.NoError(t, Write(&buf, v, ""))
	assert.Contains(t, buf.String(), "(no matches)")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	v := views(t, analysis.Query{Mode: analysis.ViewCreator})
	require.NoError(t, Write(&buf, v, "json"))

	var got struct {
		View     string `json:"view"`
		Metrics  analysis.GlobalMetrics
		Creators []analysis.CreatorAggregate `json:"creators"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "creator", got.View)
	assert.Equal(t, 9, got.Metrics.Quantity)
	require.Len(t, got.Creators, 2)
	assert.Equal(t, "Alice", got.Creators[0].ID)
	require.NotEmpty(t, got.Creators[0].TopContents)
	assert.Equal(t, "https://www.tiktok.com/@/video/v1", got.Creators[0].TopContents[0].URL)
}

func TestWrite_JSONSourcesAndCounts(t *testing.T) {
	v := views(t, analysis.Query{})
	v.Sources = []store.Source{{ID: "3f1c", Path: "orders.csv", Rows: 3}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v, "json"))

	var got struct {
		Counts   analysis.ViewCounts         `json:"counts"`
		Sources  []store.Source              `json:"sources"`
		Contents []analysis.ContentAggregate `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, analysis.ViewCounts{Contents: 2, Creators: 2, Products: 2}, got.Counts)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "3f1c", got.Sources[0].ID)
	require.Len(t, got.Contents, 2)
	assert.Equal(t, "https://www.tiktok.com/@/video/v1", got.Contents[0].URL)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, views(t, analysis.Query{Mode: analysis.ViewProduct}), "yaml"))

	var got struct {
		View     string                      `yaml:"view"`
		Products []analysis.ProductAggregate `yaml:"products"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "product", got.View)
	require.Len(t, got.Products, 2)
	assert.Equal(t, analysis.SelectedNone, got.Products[0].Selected)
}

func TestWrite_YAMLMembershipFlags(t *testing.T) {
	var buf bytes.Buffer
	v := views(t, analysis.Query{Mode: analysis.ViewProduct, Filter: analysis.NewSkuSet("shirt-red", "mug-white")})
	require.NoError(t, Write(&buf, v, "yaml"))
	assert.Contains(t, buf.String(), "selected: all")
}

func TestWrite_CSVMarksSelection(t *testing.T) {
	var buf bytes.Buffer
	v := views(t, analysis.Query{Mode: analysis.ViewProduct, Filter: analysis.NewSkuSet("shirt-red")})
	require.NoError(t, Write(&buf, v, "csv"))

	recs, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"Product", "Selected", "Orders", "Units", "Variants", "Top contents", "Top content URLs"}, recs[0])
	assert.Equal(t, []string{"Shirt", "all", "1", "3", "shirt-red(3)", "v1(3)", "https://www.tiktok.com/@/video/v1"}, recs[1])
}

func TestWrite_CSVContentURLs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, views(t, analysis.Query{}), "csv"))

	recs, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Content", "URL", "Creator", "Orders", "Units", "SKUs"}, recs[0])
	assert.Equal(t, "https://www.tiktok.com/@/video/v1", recs[1][1])
}

func TestWrite_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, views(t, analysis.Query{}), "markdown"))
	assert.True(t, strings.HasPrefix(buf.String(), "[ATTRIBUTION SUMMARY]"))
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, views(t, analysis.Query{}), "pdf")
	assert.ErrorContains(t, err, "unknown format")
}
