package gateway

import "strconv"

// GraphiQLHTML returns the exploration page pointed at the given endpoint.
func GraphiQLHTML(endpoint string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>vehiclegraph GraphiQL</title>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
    <style>
        body { height: 100%; margin: 0; width: 100%; overflow: hidden; }
        #graphiql { height: 100vh; }
    </style>
</head>
<body>
    <div id="graphiql">Loading...</div>
    <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
    <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
    <script>
        const fetcher = GraphiQL.createFetcher({ url: ` + strconv.Quote(endpoint) + ` });
        const root = ReactDOM.createRoot(document.getElementById('graphiql'));
        root.render(React.createElement(GraphiQL, {
            fetcher: fetcher,
            defaultQuery: '{\n  getVehicleByFin(fin: 1) {\n    fin\n    texts\n    codes\n    pics\n  }\n}\n',
        }));
    </script>
</body>
</html>`
}
