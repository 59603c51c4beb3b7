package gql

import (
	"context"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

// PostDoc is a post document as the CMS returns it.
type PostDoc struct {
	Id          string  `json:"id"`
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	ImagePath   *string `json:"imagePath"`
	AltText     *string `json:"altText"`
	ContentHtml *string `json:"contentHtml"`
	Content     *string `json:"content"`
}

type PostIDDoc struct {
	Id string `json:"id"`
}

type ListPostsResponse struct {
	Posts *ListPostsPosts `json:"Posts"`
}

type ListPostsPosts struct {
	Docs []PostDoc `json:"docs"`
}

type ListPostIDsResponse struct {
	Posts *ListPostIDsPosts `json:"Posts"`
}

type ListPostIDsPosts struct {
	Docs []PostIDDoc `json:"docs"`
}

type PostByIDResponse struct {
	Posts *ListPostsPosts `json:"Posts"`
}

const ListPostsOperation = `
query ListPosts {
	Posts(limit: 0, pagination: false) {
		docs {
			id
			title
			date
			imagePath
			altText
			contentHtml
			content
		}
	}
}
`

const ListPostIDsOperation = `
query ListPostIDs {
	Posts(limit: 0, pagination: false) {
		docs {
			id
		}
	}
}
`

const PostByIDOperation = `
query PostByID($id: String!) {
	Posts(where: { id: { equals: $id } }, limit: 1) {
		docs {
			id
			title
			date
			imagePath
			altText
			contentHtml
			content
		}
	}
}
`

type postByIDInput struct {
	Id string `json:"id"`
}

func ListPosts(ctx context.Context, client genqlientgraphql.Client) (*ListPostsResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "ListPosts",
		Query:  ListPostsOperation,
	}

	var data ListPostsResponse
	resp := &genqlientgraphql.Response{Data: &data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}

	return &data, nil
}

func ListPostIDs(ctx context.Context, client genqlientgraphql.Client) (*ListPostIDsResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "ListPostIDs",
		Query:  ListPostIDsOperation,
	}

	var data ListPostIDsResponse
	resp := &genqlientgraphql.Response{Data: &data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}

	return &data, nil
}

func PostByID(ctx context.Context, client genqlientgraphql.Client, id string) (*PostByIDResponse, error) {
	req := &genqlientgraphql.Request{
		OpName:    "PostByID",
		Query:     PostByIDOperation,
		Variables: &postByIDInput{Id: id},
	}

	var data PostByIDResponse
	resp := &genqlientgraphql.Response{Data: &data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}

	return &data, nil
}
